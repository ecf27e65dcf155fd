package widget

import (
	"fmt"

	"github.com/inamate/inamate/board-go/internal/document"
)

// FromRecord rebuilds a widget from its persisted form.
func FromRecord(env *Env, rec document.Record) (Widget, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	switch rec.Kind {
	case document.KindImage:
		return newImageFromRecord(env, rec), nil
	case document.KindShape:
		return newShapeFromRecord(env, rec), nil
	case document.KindText:
		return newTextFromRecord(env, rec), nil
	case document.KindHandwrite:
		return newInkFromRecord(env, rec), nil
	}
	return nil, fmt.Errorf("%w: %q cannot be restored", document.ErrUnknownKind, rec.Kind)
}
