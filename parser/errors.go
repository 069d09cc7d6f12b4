package parser

import "errors"

// Sentinel errors for parse failures. Any of these aborts the entire parse;
// no partial document is ever returned.
var (
	// ErrBridge reports that the HTML-to-Markdown bridge could not
	// process the input.
	ErrBridge = errors.New("markup bridge failed")

	// ErrGrammar reports that the Markdown grammar produced no document.
	ErrGrammar = errors.New("markdown grammar failed")

	// ErrUnexpectedNodeKind reports a structurally unrecognized top-level
	// block.
	ErrUnexpectedNodeKind = errors.New("unexpected node kind")

	// ErrWrongNodeKind reports a required child of the wrong kind.
	ErrWrongNodeKind = errors.New("wrong node kind")

	// ErrMissingNodeKind reports an absent required child.
	ErrMissingNodeKind = errors.New("missing expected node kind")

	// ErrTextDecode reports node text that is not valid UTF-8.
	ErrTextDecode = errors.New("text decoding failed")
)
