package surface

// Pair holds a menu's two surfaces. One is active (last presented) and
// the other is the back surface the next full frame is drawn into.
type Pair struct {
	surfaces [2]*Surface
	active   int
}

// NewPair allocates two surfaces of the given size.
func NewPair(width, height int) (*Pair, error) {
	front, err := New(width, height)
	if err != nil {
		return nil, err
	}
	back, err := New(width, height)
	if err != nil {
		return nil, err
	}
	return &Pair{surfaces: [2]*Surface{front, back}}, nil
}

// Active returns the surface that is currently displayed.
func (p *Pair) Active() *Surface {
	return p.surfaces[p.active]
}

// Back returns the render target for the next frame.
func (p *Pair) Back() *Surface {
	return p.surfaces[1-p.active]
}

// Swap makes the back surface active.
func (p *Pair) Swap() {
	p.active = 1 - p.active
}

// ActiveIndex returns 0 or 1.
func (p *Pair) ActiveIndex() int {
	return p.active
}

// Size returns the dimensions shared by both surfaces.
func (p *Pair) Size() (width, height int) {
	return p.surfaces[0].Size()
}

// Resize resizes both surfaces together.
func (p *Pair) Resize(width, height int) error {
	for _, s := range p.surfaces {
		if err := s.Resize(width, height); err != nil {
			return err
		}
	}
	return nil
}
