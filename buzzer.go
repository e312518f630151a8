package rip8

// Buzzer is told when the tone should start and stop. It never produces the tone itself.
type Buzzer interface {
	// Boot initializes the component
	Boot() error
	Play()
	Stop()
}

// DummyBuzzer only remembers the edges it was given
type DummyBuzzer struct {
	IsPlaying bool
	// Number of start and stop edges seen
	Starts, Stops int
}

func NewDummyBuzzer() *DummyBuzzer {
	return &DummyBuzzer{}
}

// Boot implements Buzzer.
func (b *DummyBuzzer) Boot() error {
	return nil
}

// Play implements Buzzer.
func (b *DummyBuzzer) Play() {
	if !b.IsPlaying {
		b.Starts++
	}
	b.IsPlaying = true
}

// Stop implements Buzzer
func (b *DummyBuzzer) Stop() {
	if b.IsPlaying {
		b.Stops++
	}
	b.IsPlaying = false
}
