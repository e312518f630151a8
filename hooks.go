package rip8

// Hook runs inside the console loop with exclusive access to the CPU.
// Hooks must not call back into the Console.
type Hook func(cpu *Cpu)

// AddBeforeFrameHook adds a hook that will run before every cycle, even when paused
func (c *Console) AddBeforeFrameHook(h Hook) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beforeFrameHooks = append(c.beforeFrameHooks, h)
	return len(c.beforeFrameHooks)
}

// AddBeforeCycleHook adds a hook that will run before every instruction
func (c *Console) AddBeforeCycleHook(h Hook) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beforeCycleHooks = append(c.beforeCycleHooks, h)
	return len(c.beforeCycleHooks)
}

// AddAfterCycleHook adds a hook that will run after every instruction that did not fail
func (c *Console) AddAfterCycleHook(h Hook) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.afterCycleHooks = append(c.afterCycleHooks, h)
	return len(c.afterCycleHooks)
}

// AddAfterFrameHook adds a hook that will run after the timers ticked
func (c *Console) AddAfterFrameHook(h Hook) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.afterFrameHooks = append(c.afterFrameHooks, h)
	return len(c.afterFrameHooks)
}

// AddErrorHook adds a hook that will run after an instruction failed
func (c *Console) AddErrorHook(h Hook) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorHooks = append(c.errorHooks, h)
	return len(c.errorHooks)
}

func (c *Console) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(c.cpu)
	}
}
