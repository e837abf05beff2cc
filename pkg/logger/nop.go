package logger

type nop struct{}

// Nop возвращает логгер, который ничего не пишет. Нужен в тестах.
func Nop() Logger {
	return nop{}
}

func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}

func (n nop) With(...Field) Logger {
	return n
}
