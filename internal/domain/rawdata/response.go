package rawdata

import (
	"sort"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

var ErrUnsupportedShape = crerr.New("payload is neither an array nor an object")

type ResponseKind int

const (
	// KindArray is a top level JSON array of records.
	KindArray ResponseKind = iota + 1
	// KindObject is a top level JSON object whose values may be arrays.
	KindObject
)

// NamedList is one list valued member of a response.
type NamedList struct {
	Key   string
	Items []any
}

// Response is the decoded provider body. Exactly one of Items or Fields is
// populated, depending on Kind.
type Response struct {
	Kind   ResponseKind
	Items  []any
	Fields map[string]any
}

const arrayListKey = "items"

func DecodeResponse(raw []byte) (Response, error) {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return Response{}, crerr.Wrap(err, "decode provider payload")
	}

	switch typed := decoded.(type) {
	case []any:
		return Response{Kind: KindArray, Items: typed}, nil
	case map[string]any:
		return Response{Kind: KindObject, Fields: typed}, nil
	default:
		return Response{}, ErrUnsupportedShape
	}
}

// Lists returns every non-empty list in the response. Object members are
// visited in lexical key order; a bare array is reported under "items".
func (r Response) Lists() []NamedList {
	switch r.Kind {
	case KindArray:
		if len(r.Items) == 0 {
			return nil
		}
		return []NamedList{{Key: arrayListKey, Items: r.Items}}
	case KindObject:
		keys := make([]string, 0, len(r.Fields))
		for key := range r.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		out := make([]NamedList, 0, len(keys))
		for _, key := range keys {
			items, ok := r.Fields[key].([]any)
			if !ok || len(items) == 0 {
				continue
			}
			out = append(out, NamedList{Key: key, Items: items})
		}
		return out
	default:
		return nil
	}
}

// HasData reports whether any member of the response is a non-empty list.
func (r Response) HasData() bool {
	return len(r.Lists()) > 0
}

// Records flattens the response into one record sequence. List elements that
// are not objects are dropped. An object without any list member is itself
// the only record.
func (r Response) Records() []map[string]any {
	lists := r.Lists()
	if len(lists) == 0 {
		if r.Kind == KindObject && len(r.Fields) > 0 {
			return []map[string]any{r.Fields}
		}
		return nil
	}

	out := make([]map[string]any, 0, len(lists[0].Items))
	for _, list := range lists {
		out = append(out, ObjectsOf(list.Items)...)
	}
	return out
}

// ObjectsOf keeps the object elements of a decoded JSON list.
func ObjectsOf(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			out = append(out, record)
		}
	}
	return out
}
