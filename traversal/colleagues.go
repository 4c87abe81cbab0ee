package traversal

// colleaguesKernel emits the colleagues of one box: all distinct boxes of
// the same level that are adjacent to or overlapping it.
//
// The walk starts at the top of the tree and descends only into adjacent
// boxes, so every same-level adjacent box is reached and nothing else is
// visited. The root has no colleagues.
func (s *buildState) colleaguesKernel(key int, w *walker, emit emitFunc) error {
	boxID := boxIDFromKey(key)
	if boxID == 0 {
		return nil
	}

	center := s.t.Center(boxID)
	level := s.t.Levels[boxID]

	w.init(0)
	for w.cont {
		child := s.t.ChildIDs[w.morton][w.box]

		if child != 0 && s.adjacent(center, level, child) {
			if s.t.Levels[child] == level && child != boxID {
				emit(child)
			} else {
				// Descend; the box itself is descended into as well and
				// exhausts without emitting, since its subtree sits below
				// the colleague level.
				if err := w.push(child); err != nil {
					return err
				}
				continue
			}
		}

		w.advance(s.nchildren)
	}

	return nil
}
