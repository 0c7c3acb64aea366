package inaspects

// FindControls walks a control tree starting at root and returns every
// control matching the predicate, root included. The walk uses an explicit
// stack instead of recursion and visits each control once even when a
// control appears under several containers.
func FindControls(root AnyControl, match func(AnyControl) bool) []AnyControl {
	stack := make([]AnyControl, 0, 32)
	stack = append(stack, root)

	found := make([]AnyControl, 0, 32)
	visited := make(map[AnyControl]bool, 32)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if match == nil || match(current) {
			found = append(found, current)
		}

		if cc, ok := current.(Container); ok {
			children := cc.Controls()
			for i := len(children) - 1; i >= 0; i-- {
				if !visited[children[i]] {
					stack = append(stack, children[i])
				}
			}
		}
	}

	return found
}

// FindByName walks a control tree and returns the first control whose
// NameTag equals name.
func FindByName(root AnyControl, name string) (AnyControl, bool) {
	matches := FindControls(root, func(c AnyControl) bool {
		got, ok := NameTag.Get(c)
		return ok && got == name
	})
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// Utility functions for working with slices efficiently

func appendUnique[T comparable](slice []T, item T) []T {
	for _, existing := range slice {
		if existing == item {
			return slice
		}
	}
	return append(slice, item)
}

func removeElement[T comparable](slice []T, item T) []T {
	for i, existing := range slice {
		if existing == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
