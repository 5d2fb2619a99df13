package ir

// VisitFunc is called for every block encountered during a walk. chapter is
// the chapter object owning the block (nil when the walk starts mid-tree).
// The visitor may mutate the block in place; it must not detach or reorder
// siblings of the block it is visiting.
type VisitFunc func(block Block, chapter Block)

// Walk performs a depth-first traversal of every block in the document:
// chapter blocks, nested blocks, list item blocks, and the blocks inside
// table cells. Visiting order is document order; a block is visited before
// its children.
func Walk(doc Document, fn VisitFunc) {
	for _, chapter := range doc.Chapters() {
		blocks, ok := chapter.Array("blocks")
		if !ok {
			continue
		}
		WalkBlocks(blocks, chapter, fn)
	}
}

// WalkBlocks traverses a block sequence. There are exactly four child
// extraction rules: a block's own nested "blocks", list "items" (each item is
// itself a block sequence), and table rows -> cells -> cell "blocks". Chart
// and table leaves carry no further rule beyond their own children.
func WalkBlocks(blocks []any, chapter Block, fn VisitFunc) {
	for _, v := range blocks {
		m, ok := AsObject(v)
		if !ok {
			continue
		}
		block := Block(m)
		fn(block, chapter)

		if nested, ok := block.Array("blocks"); ok {
			WalkBlocks(nested, chapter, fn)
		}

		if block.Type() == TypeList {
			items, _ := block.Array("items")
			for _, item := range items {
				if seq, ok := AsArray(item); ok {
					WalkBlocks(seq, chapter, fn)
				}
			}
		}

		if block.Type() == TypeTable {
			rows, _ := block.Array("rows")
			for _, rv := range rows {
				row, ok := AsObject(rv)
				if !ok {
					continue
				}
				cells, _ := AsArray(row["cells"])
				for _, cv := range cells {
					cell, ok := AsObject(cv)
					if !ok {
						continue
					}
					if cellBlocks, ok := AsArray(cell["blocks"]); ok {
						WalkBlocks(cellBlocks, chapter, fn)
					}
				}
			}
		}
	}
}
