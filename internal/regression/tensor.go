package regression

// ConcatQuestion appends the pooled question embedding to every token
// vector, doubling the feature width. The question vector's length must
// match the token vectors'; callers enforce that via the shared encoder
// contract. An empty question vector leaves the tensor unchanged.
func ConcatQuestion(tokens [][]float64, question []float64) [][]float64 {
	if len(question) == 0 {
		return tokens
	}

	out := make([][]float64, len(tokens))
	for i, tok := range tokens {
		row := make([]float64, 0, len(tok)+len(question))
		row = append(row, tok...)
		row = append(row, question...)
		out[i] = row
	}
	return out
}

// PadOrTruncate shapes the token vectors into exactly length rows of
// width columns. Excess rows are dropped, missing rows are zero
// vectors, and rows of the wrong width are zero-padded or truncated to
// fit. The regressor contract requires a fixed input shape.
func PadOrTruncate(tokens [][]float64, length, width int) [][]float64 {
	out := make([][]float64, length)
	for i := range out {
		row := make([]float64, width)
		if i < len(tokens) {
			copy(row, tokens[i])
		}
		out[i] = row
	}
	return out
}
