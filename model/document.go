package model

// Document represents a parsed page as an ordered sequence of blocks.
// Block order is document order and is preserved through rendering into
// page order.
type Document struct {
	Blocks []Block
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{Blocks: make([]Block, 0)}
}

// AddBlock appends a block to the document.
func (d *Document) AddBlock(b Block) {
	d.Blocks = append(d.Blocks, b)
}

// BlockCount returns the number of top-level blocks.
func (d *Document) BlockCount() int {
	return len(d.Blocks)
}

// ImageURLs returns the URLs of all image blocks in document order,
// including images nested inside lists and block quotes. Callers use this
// to pre-fetch images before rendering begins.
func (d *Document) ImageURLs() []string {
	var urls []string
	for _, b := range d.Blocks {
		urls = appendImageURLs(urls, b)
	}
	return urls
}

func appendImageURLs(urls []string, b Block) []string {
	switch v := b.(type) {
	case *Image:
		urls = append(urls, v.URL)
	case *List:
		for _, item := range v.Items {
			for _, child := range item.Content {
				urls = appendImageURLs(urls, child)
			}
		}
	case *BlockQuote:
		for _, child := range v.Content {
			urls = appendImageURLs(urls, child)
		}
	}
	return urls
}
