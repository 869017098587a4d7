package game

// StepVelocity blends every ball's velocity toward its target velocity:
// v = v*(1 - dt*k) + target*(dt*k). Balls whose velocity moved are recorded
// as changed.
func (w *World) StepVelocity(dt float32) {
	t := dt * VelocitySmoothing
	for id, b := range w.balls {
		next := b.Vel.Mix(b.Target, t)
		if next == b.Vel {
			continue
		}
		b.Vel = next
		w.mark(ComponentVelocity, id)
	}
}

// StepPosition integrates positions: p += v * dt * MoveSpeed. Stationary
// balls are not recorded as changed.
func (w *World) StepPosition(dt float32) {
	for id, b := range w.balls {
		if b.Vel.IsZero() {
			continue
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(dt * MoveSpeed))
		w.mark(ComponentPosition, id)
	}
}

// Step runs one fixed timestep: velocity smoothing then position
// integration, the same order the systems run in on both ends.
func (w *World) Step(dt float32) {
	w.StepVelocity(dt)
	w.StepPosition(dt)
}
