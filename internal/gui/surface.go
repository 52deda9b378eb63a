package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"syncwallet_gui/internal/overlay"
)

// Surface stacks its children over the whole area. Sliding children keep the
// full size but are shifted down by their offset. Surface implements
// overlay.Parent.
type Surface struct {
	Container *fyne.Container

	size      fyne.Size
	nextID    int
	listeners map[int]overlay.ParentListener
	offsets   map[fyne.CanvasObject]func() float32
}

func NewSurface(objects ...fyne.CanvasObject) *Surface {
	s := &Surface{
		listeners: make(map[int]overlay.ParentListener),
		offsets:   make(map[fyne.CanvasObject]func() float32),
	}
	s.Container = container.New(s, objects...)
	return s
}

// Subscribe registers l and immediately reports the current size, if known.
func (s *Surface) Subscribe(l overlay.ParentListener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	if s.size.Width > 0 || s.size.Height > 0 {
		l.ParentResized(s.size.Width, s.size.Height)
	}
	return func() { delete(s.listeners, id) }
}

// Add appends o on top of the existing children.
func (s *Surface) Add(o fyne.CanvasObject) {
	s.Container.Add(o)
	for _, l := range s.listeners {
		l.ChildAdded()
	}
}

// AddSliding adds o, placed at the vertical offset returned by offset.
func (s *Surface) AddSliding(o fyne.CanvasObject, offset func() float32) {
	s.offsets[o] = offset
	s.Add(o)
}

// Raise moves o to the top of the stack.
func (s *Surface) Raise(o fyne.CanvasObject) {
	objects := s.Container.Objects
	for i, child := range objects {
		if child != o {
			continue
		}
		if i == len(objects)-1 {
			return
		}
		s.Container.Objects = append(append(objects[:i:i], objects[i+1:]...), o)
		s.Container.Refresh()
		return
	}
}

// Size returns the size from the last layout pass.
func (s *Surface) Size() fyne.Size { return s.size }

func (s *Surface) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if size != s.size {
		s.size = size
		for _, l := range s.listeners {
			l.ParentResized(size.Width, size.Height)
		}
	}
	for _, o := range objects {
		o.Resize(size)
		var y float32
		if offset, ok := s.offsets[o]; ok {
			y = offset()
		}
		o.Move(fyne.NewPos(0, y))
	}
}

// MinSize ignores sliding children so the overlay never grows the window.
func (s *Surface) MinSize(objects []fyne.CanvasObject) fyne.Size {
	min := fyne.NewSize(0, 0)
	for _, o := range objects {
		if _, sliding := s.offsets[o]; sliding {
			continue
		}
		min = min.Max(o.MinSize())
	}
	return min
}
