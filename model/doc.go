// Package model defines the semantic document tree shared by the DOCX
// and markdown sides of the conversion engine.
//
// A Document is an ordered sequence of blocks (headings, paragraphs,
// list items, tables, images, quotes, code). Inline text lives in Runs,
// which carry the small set of formatting the engine preserves across
// conversion: bold, italic, underline, code, and an optional link
// target.
//
// The same types serve as the package-bound document tree and the
// package-independent markup tree. The difference is confined to
// ImageBlock: package-bound trees reference assets through a
// relationship id, markup trees through a bare relative path.
package model
