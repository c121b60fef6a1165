package track

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cbegin/beatmix/internal/beat"
	"github.com/cbegin/beatmix/internal/pitch"
)

var (
	ErrNoteCollision         = errors.New("note collision")
	ErrUnsupportedChordArity = errors.New("unsupported chord arity")
	ErrNonPositiveLength     = errors.New("note length must be positive")
)

// ChordSize is the only chord arity instruments can render.
const ChordSize = 3

type Kind int

const (
	KindSingle Kind = iota
	KindChord
)

// Content is what sounds: one pitch, or a chord. Chords of any size can be
// built, but only ChordSize pitches render; others fail at render time.
type Content struct {
	kind    Kind
	pitches []pitch.Pitch
}

func Single(p pitch.Pitch) Content {
	return Content{kind: KindSingle, pitches: []pitch.Pitch{p}}
}

func Chord(ps ...pitch.Pitch) Content {
	return Content{kind: KindChord, pitches: append([]pitch.Pitch(nil), ps...)}
}

func (c Content) Kind() Kind { return c.kind }

// Pitches returns a copy of the sounding pitches.
func (c Content) Pitches() []pitch.Pitch {
	return append([]pitch.Pitch(nil), c.pitches...)
}

func (c Content) String() string {
	if c.kind == KindSingle && len(c.pitches) == 1 {
		return c.pitches[0].String()
	}
	names := make([]string, len(c.pitches))
	for i, p := range c.pitches {
		names[i] = p.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// Note is content held from Start for Length beats.
type Note struct {
	Content Content
	Start   beat.Beat
	Length  beat.Beat
}

func NewNote(c Content, start, length beat.Beat) Note {
	return Note{Content: c, Start: start, Length: length}
}

func (n Note) End() beat.Beat { return n.Start.Add(n.Length) }

func (n Note) String() string {
	return fmt.Sprintf("%v@%v+%v", n.Content, n.Start, n.Length)
}

// Key is the placement identity of a note. Two notes with the same start
// have the same key whatever they play, so they always collide.
type Key struct {
	start beat.Beat
}

func (n Note) Key() Key { return Key{start: n.Start} }

func (k Key) Cmp(o Key) int { return k.start.Cmp(o.start) }

// CollisionError reports the note already on the track that a new note
// would have overlapped.
type CollisionError struct {
	Track    string
	Existing Note
	Rejected Note
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("track %s: note %v collides with %v", e.Track, e.Rejected, e.Existing)
}

func (e *CollisionError) Is(target error) bool { return target == ErrNoteCollision }
