package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/ufoflap/internal/draw"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	Pos         Vec
	Vel         Vec
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime, for fading
	Drag        float64 // Velocity decay per 1/60 s (1.0 = no drag)
	Symbol      rune
	Color       draw.Color
}

// NewParticle takes a particle from the pool.
func NewParticle(pos, vel Vec, lifetime float64, symbol rune, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Symbol = symbol
	p.Color = color
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// update advances the particle and reports whether it expired.
func (p *Particle) update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(p.Drag, dt*60)
	p.Vel.X *= drag
	p.Vel.Y *= drag
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
	return false
}

// Particles is the set of live particle bursts.
type Particles struct {
	items []*Particle
}

// NewParticles returns an empty particle set.
func NewParticles() *Particles {
	return &Particles{items: make([]*Particle, 0, 64)}
}

var burstSymbols = []rune{'*', '+', '·', '•', 'o'}

// Burst spawns count particles flying out from pos.
func (ps *Particles) Burst(pos Vec, color draw.Color, count int) {
	if ps == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		speed := 3.0 * (0.5 + rand.Float64())
		life := 0.6 * (0.5 + rand.Float64()*0.5)
		vel := Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
		symbol := burstSymbols[rand.Intn(len(burstSymbols))]
		ps.items = append(ps.items, NewParticle(pos, vel, life, symbol, color))
	}
}

// Update advances every particle and drops expired ones.
func (ps *Particles) Update(dt float64) {
	if ps == nil {
		return
	}
	kept := ps.items[:0]
	for _, p := range ps.items {
		if p.update(dt) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(ps.items); i++ {
		ps.items[i] = nil
	}
	ps.items = kept
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.items)
}

// Clear releases every particle.
func (ps *Particles) Clear() {
	if ps == nil {
		return
	}
	for i, p := range ps.items {
		p.Release()
		ps.items[i] = nil
	}
	ps.items = ps.items[:0]
}

// Draw renders live particles. Particles past 75% of their life are skipped.
func (ps *Particles) Draw(ctx DrawContext) error {
	if ps == nil {
		return nil
	}
	for _, p := range ps.items {
		if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
			continue
		}
		ctx.Text(p.Pos, p.Color, string(p.Symbol))
	}
	return nil
}
