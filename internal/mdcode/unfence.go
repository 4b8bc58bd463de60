package mdcode

// Unfence parses a Markdown document and returns all fenced code blocks
// without modifying the source.
func Unfence(source []byte) (Blocks, error) {
	var blocks Blocks

	err := Walk(source, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// Tagged returns the blocks whose info string equals tag.
func (b Blocks) Tagged(tag string) Blocks {
	var tagged Blocks

	for _, block := range b {
		if block.Info == tag {
			tagged = append(tagged, block)
		}
	}

	return tagged
}
