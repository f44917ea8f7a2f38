package token

var keywords = map[string]struct{}{
	"let": {},
}

// LookupKeyword возвращает true, если лексема — ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
