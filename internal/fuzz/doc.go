// Package fuzztests houses Go fuzz harnesses that exercise the translation
// phases (source -> chars -> lexer -> preprocessor -> literals). Its goal is
// to smoke test robustness and guard against panics, hangs or broken token
// invariants on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через фазы трансляции.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/chars, internal/lexer,
// internal/driver, internal/suite, internal/testkit.

package fuzztests
