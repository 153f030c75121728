// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (source -> lexer -> parser -> CFG -> liveness). They guard against panics,
// hangs and broken graph invariants on arbitrary inputs.
//
// Назначение: загрузить байты в FileSet, прогнать лексер/парсер и, если
// разбор чистый, построить, упростить и проанализировать каждую функцию.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
