package cfg

import "slices"

type Block struct {
	ID    BlockID
	Kind  BlockKind
	Num   int // числовой суффикс _B<Num>; NoNum для entry/exit
	Stmts []Stmt
	Preds []BlockID
	Succs []BlockID
	Def   VarSet
	Use   VarSet

	dead bool
}

// Dead reports whether the simplifier has discarded the block.
func (b *Block) Dead() bool {
	return b == nil || b.dead
}

func (b *Block) IsSentinel() bool {
	return b.Kind != BlockNormal
}

func (b *Block) Empty() bool {
	return len(b.Stmts) == 0
}

func addUnique(list []BlockID, id BlockID) []BlockID {
	if slices.Contains(list, id) {
		return list
	}
	return append(list, id)
}

func removeID(list []BlockID, id BlockID) []BlockID {
	if i := slices.Index(list, id); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
