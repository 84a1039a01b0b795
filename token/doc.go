// Package token splits OFX documents into header pairs and body tokens.
//
// A document is a header block followed by a tagged body. [Tokenizer.ReadHeaderLine]
// yields header pairs from either a NAME:VALUE line block (terminated by a
// blank line) or from an <?OFX ...?> processing instruction, then returns
// [ErrEndOfHeaders]. [Tokenizer.Next] yields start tags, end tags and text.
//
// The tokenizer knows nothing about which tags close implicitly; that
// decision belongs to the stream package.
package token
