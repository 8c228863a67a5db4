package page

// Page is the paged envelope returned by list endpoints. Number is 0-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// Query holds the common list parameters.
type Query struct {
	Q    string
	Page int
	Size int
	Sort []string // "field,direction"
}

const (
	DefaultSize = 20
	MaxSize     = 500
)

// Empty returns a page with no content for the given request.
func Empty[T any](number, size int) *Page[T] {
	return &Page[T]{Content: []T{}, Size: size, Number: number}
}

// Normalize fills envelope fields the API left out.
func (p *Page[T]) Normalize(number, size int) *Page[T] {
	if p.Content == nil {
		p.Content = []T{}
	}
	if p.Size == 0 {
		p.Size = size
	}
	if p.Number == 0 && number > 0 {
		p.Number = number
	}
	if p.TotalElements == 0 && len(p.Content) > 0 {
		p.TotalElements = int64(len(p.Content))
	}
	if p.TotalPages == 0 && p.TotalElements > 0 && p.Size > 0 {
		p.TotalPages = int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
	}
	return p
}

func (p *Page[T]) HasPrev() bool { return p.Number > 0 }
func (p *Page[T]) HasNext() bool { return p.Number+1 < p.TotalPages }

// Clamp bounds the page index and size to accepted values.
func (q Query) Clamp() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}
