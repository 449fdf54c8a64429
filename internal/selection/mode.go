package selection

// Mode decides how a key is interpreted.
type Mode int

const (
	ModeNavigating Mode = iota // keys move the cursor
	ModeSearching              // printable keys edit the query
)

func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "searching"
	default:
		return "navigating"
	}
}

// KeyKind classifies an input key independently of the terminal library.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyRune
	KeyUp
	KeyDown
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyInterrupt
)

// Key is one input event. Rune is set for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Effect is what the engine (or its caller) must do in response to a key.
type Effect int

const (
	EffectNone Effect = iota
	EffectAdvance
	EffectRetreat
	EffectEnterSearch
	EffectExitSearch
	EffectAppend
	EffectRemoveLast
	EffectCommit
	EffectQuit
)

// Transition is the pure key-handling table.
func Transition(mode Mode, key Key) (Mode, Effect) {
	if key.Kind == KeyInterrupt {
		return mode, EffectQuit
	}
	if mode == ModeSearching {
		switch key.Kind {
		case KeyEsc:
			return ModeNavigating, EffectExitSearch
		case KeyBackspace:
			return mode, EffectRemoveLast
		case KeyRune:
			return mode, EffectAppend
		case KeyDown:
			return mode, EffectAdvance
		case KeyUp:
			return mode, EffectRetreat
		case KeyEnter:
			return mode, EffectCommit
		}
		return mode, EffectNone
	}

	switch key.Kind {
	case KeyEsc:
		return mode, EffectQuit
	case KeyDown:
		return mode, EffectAdvance
	case KeyUp:
		return mode, EffectRetreat
	case KeyEnter:
		return mode, EffectCommit
	case KeyRune:
		switch key.Rune {
		case 'q':
			return mode, EffectQuit
		case 'j':
			return mode, EffectAdvance
		case 'k':
			return mode, EffectRetreat
		case '/':
			return ModeSearching, EffectEnterSearch
		}
	}
	return mode, EffectNone
}

// Handle runs key through Transition and applies the state-changing effects.
// Commit and Quit are left to the caller; use Commit to fetch the record.
func (e *Engine) Handle(key Key) Effect {
	_, effect := Transition(e.Mode(), key)
	switch effect {
	case EffectAdvance:
		e.Advance()
	case EffectRetreat:
		e.Retreat()
	case EffectEnterSearch:
		e.EnterSearch()
	case EffectExitSearch:
		e.ExitSearch()
	case EffectAppend:
		e.AppendToQuery(key.Rune)
	case EffectRemoveLast:
		e.RemoveLastFromQuery()
	}
	return effect
}
