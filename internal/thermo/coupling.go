package thermo

// Coupling holds the Nose-Hoover friction variables: xi couples the
// thermostat, eta the barostat. The kernels treat a step's coupling values
// as immutable inputs; only UpdateCoupling produces new ones.
type Coupling struct {
	Xi  float64
	Eta float64
}

// Targets are the set points and relaxation times of the NPT ensemble.
type Targets struct {
	Temperature float64
	Pressure    float64
	TauT        float64
	TauP        float64
}

// UpdateCoupling advances the friction variables by one explicit Euler step
// of the coupling ODE, driven by the instantaneous temperature and pressure
// recovered from the reduction kernels:
//
//	xi'  = xi  + dt/tauT^2 * (T/T0 - 1)
//	eta' = eta + dt*V/(N_dof*tauP^2*T0) * (P - P0)
func UpdateCoupling(c Coupling, tInst, pInst, volume float64, nDOF int, tg Targets, dt float64) Coupling {
	c.Xi += dt / (tg.TauT * tg.TauT) * (tInst/tg.Temperature - 1)
	c.Eta += dt * volume / (float64(nDOF) * tg.TauP * tg.TauP * tg.Temperature) * (pInst - tg.Pressure)
	return c
}
