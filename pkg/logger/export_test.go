package logger

// NewWithWriter expone la construcción con destino configurable para los tests.
var NewWithWriter = newWithWriter
