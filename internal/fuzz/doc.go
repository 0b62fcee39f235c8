// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (source -> lexer -> resolver -> dispatcher). They guard against panics,
// broken structural links and hangs on arbitrary input.
//
// Назначение: прогонять произвольные байты через токенизатор, резолвер и
// полный набор правил для каждой грамматики.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
