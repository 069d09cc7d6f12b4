// Package model defines the typed document tree produced by the parser and
// consumed by the renderer.
//
// A Document is an ordered sequence of blocks. The Block variant set is
// closed: headings, paragraphs, lists, images, block quotes, thematic
// breaks, code blocks, and tables. List and BlockQuote children are
// themselves full Block trees, so structures nest to arbitrary depth.
//
// Inline content is a flat sequence of spans. A Span is either styled text
// or a link; spans never contain other spans. Nested inline styling is
// flattened to single-level runs during parsing, using the SpanStyle merge
// rule (Bold inside Italic and vice versa yield BoldItalic, Code absorbs
// everything else).
//
// A Document is built once per parse and not mutated afterwards.
package model
