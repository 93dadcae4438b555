package op

var OpCodeTable = map[Code]OpCode{
	Add:                {"add", Add, 3, 3, "a + b -> c", false},
	Mul:                {"mul", Mul, 3, 3, "a * b -> c", false},
	Input:              {"in", Input, 1, 1, "input -> a", false},
	Output:             {"out", Output, 1, 0, "a -> output", false},
	JumpIfTrue:         {"jnz", JumpIfTrue, 2, 0, "jump to b if a != 0", true},
	JumpIfFalse:        {"jz", JumpIfFalse, 2, 0, "jump to b if a == 0", true},
	LessThan:           {"lt", LessThan, 3, 3, "a < b -> c", false},
	Equals:             {"eq", Equals, 3, 3, "a == b -> c", false},
	AdjustRelativeBase: {"arb", AdjustRelativeBase, 1, 0, "rb += a", false},
	Halt:               {"hlt", Halt, 0, 0, "halt", false},
}
