// Package codegen turns a parsed descriptor into Go source.
//
// Назначение: для каждого enum выпускает интерфейс, типы вариантов,
// render/cause/provide и селекторы с конструкторами.
// Не делает: валидации (она в descriptor) и записи файлов (это driver).
// Зависимости: internal/descriptor, go/format, x/tools/go/ast/astutil.
package codegen
