package domain

import "github.com/lex00/fuzzdomain-go/ir"

// ParseTuple parses objs positionally, objs[i] against domains[i]. It fails
// when the counts differ or any element fails to parse.
func ParseTuple(domains []Untyped, objs []ir.Object) ([]any, bool) {
	if len(objs) != len(domains) {
		return nil, false
	}
	corpus := make([]any, len(domains))
	for i, d := range domains {
		c, ok := d.ParseCorpusAny(objs[i])
		if !ok {
			return nil, false
		}
		corpus[i] = c
	}
	return corpus, true
}

// SerializeTuple serializes corpus positionally, corpus[i] with domains[i].
func SerializeTuple(domains []Untyped, corpus []any) []ir.Object {
	objs := make([]ir.Object, len(domains))
	for i, d := range domains {
		objs[i] = d.SerializeCorpusAny(corpus[i])
	}
	return objs
}

// Values projects each corpus value through its domain, in index order.
func Values(domains []Untyped, corpus []any) []any {
	values := make([]any, len(domains))
	for i, d := range domains {
		values[i] = d.ValueAny(corpus[i])
	}
	return values
}
