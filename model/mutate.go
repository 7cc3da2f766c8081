package model

// RemoveImages returns a copy of the document with every image block
// removed, plus the relationship ids that are no longer referenced by
// the new tree. The caller releases those ids against the relationship
// graph and asset set in one transaction; the returned tree never holds
// a dangling id, even transiently.
//
// The input document is not modified.
func RemoveImages(doc *Document) (*Document, []string) {
	out := &Document{Blocks: make([]Block, 0, len(doc.Blocks))}
	var released []string
	seen := make(map[string]bool)

	for _, b := range doc.Blocks {
		img, ok := b.(*ImageBlock)
		if !ok {
			out.Blocks = append(out.Blocks, b)
			continue
		}
		if img.RelID != "" && !seen[img.RelID] {
			seen[img.RelID] = true
			released = append(released, img.RelID)
		}
	}

	// An id is only released when no surviving block references it.
	// Image references never appear outside image blocks in this
	// model, so the scan above is complete.
	return out, released
}

// CountImages returns the number of image blocks in the document.
func CountImages(doc *Document) int {
	n := 0
	for _, b := range doc.Blocks {
		if b.Kind() == KindImage {
			n++
		}
	}
	return n
}
