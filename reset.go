package uart

// Disable turns the transmitter and receiver off and forgets the applied
// configuration. The port stays usable: Configure brings it back.
//
// A byte still waiting in the receive register is left there; reading it
// after Disable returns whatever the hardware latched.
func (p *Port) Disable() {
	p.rxMu.Lock()
	p.txMu.Lock()
	defer p.txMu.Unlock()
	defer p.rxMu.Unlock()

	p.regs.WriteControl(0)
	p.regs.SetDoubleSpeed(false)
	p.bus.configs.Delete(p.index)

	p.logger.Debug("port disabled")
}

// Configured reports whether Configure has been applied since the last
// Disable.
func (p *Port) Configured() bool {
	_, ok := p.bus.configs.Load(p.index)
	return ok
}
