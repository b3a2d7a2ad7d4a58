package settings

// Store owns the current Settings. Apply and the two toggles are the only
// writers; the logic pass calls them in a fixed order so no locking is
// needed.
type Store struct {
	cur Settings
}

func NewStore() *Store {
	return &Store{cur: Default()}
}

// Apply replaces the settings wholesale. Cadence fields are clamped so a
// zero divisor can never reach the scheduler.
func (s *Store) Apply(parsed Settings) {
	parsed.FPS = ClampRate(parsed.FPS)
	parsed.TPS = ClampRate(parsed.TPS)
	parsed.RPS = ClampDivisor(parsed.RPS)
	if parsed.Vars.Comp == "" {
		parsed.Vars.Comp = DefaultComp
	}
	s.cur = parsed
}

func (s *Store) ToggleLayout() {
	s.cur.Layout = s.cur.Layout.Toggle()
}

func (s *Store) ToggleOrder() {
	s.cur.Order = s.cur.Order.Toggle()
}

func (s *Store) Current() Settings { return s.cur }
func (s *Store) FPS() uint32       { return s.cur.FPS }
func (s *Store) TPS() uint32       { return s.cur.TPS }
func (s *Store) RPS() uint32       { return s.cur.RPS }
func (s *Store) Layout() Layout    { return s.cur.Layout }
func (s *Store) Order() Order      { return s.cur.Order }
func (s *Store) Vars() Vars        { return s.cur.Vars }
