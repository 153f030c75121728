package token

var keywords = map[string]Kind{
	"int":    KwInt,
	"float":  KwFloat,
	"double": KwDouble,
	"char":   KwChar,
	"void":   KwVoid,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"for":    KwFor,
	"return": KwReturn,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
