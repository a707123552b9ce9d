package indicator

import "errors"

// ZadChannel is the XAng Zad C channel. Two raw lines follow price: when
// price leaves the channel upwards the Up line jumps to it while Dn closes
// 1/Ki of its gap, and symmetrically downwards. Inside the channel both
// lines close 1/Ki of their gap. Both raw lines are then EMA smoothed.
// Up >= Dn holds for the raw and the smoothed lines.
type ZadChannel struct {
	ki     float64
	length int

	up, dn   float64
	smUp     ema
	smDn     ema
	count    int
	prevUp   float64
	prevDn   float64
	havePrev bool
}

func NewZadChannel(ki float64, length int) (*ZadChannel, error) {
	if ki <= 1 {
		return nil, errors.New("Zad channel Ki must be greater than 1")
	}
	if length < 1 {
		return nil, errors.New("Zad channel smoothing length must be positive")
	}
	alpha := 2 / float64(length+1)
	return &ZadChannel{ki: ki, length: length, smUp: ema{alpha: alpha}, smDn: ema{alpha: alpha}}, nil
}

// Update feeds one price and returns the smoothed lines; ok turns true
// after length prices.
func (z *ZadChannel) Update(price float64) (up, dn Pair, ok bool) {
	switch {
	case z.count == 0:
		z.up, z.dn = price, price
	case price > z.up && price > z.dn:
		z.up = price
		z.dn += (price - z.dn) / z.ki
	case price < z.up && price < z.dn:
		z.dn = price
		z.up += (price - z.up) / z.ki
	default:
		z.up += (price - z.up) / z.ki
		z.dn += (price - z.dn) / z.ki
	}
	z.count++

	u := z.smUp.update(z.up)
	d := z.smDn.update(z.dn)
	up = Pair{Cur: u, Prev: u}
	dn = Pair{Cur: d, Prev: d}
	if z.havePrev {
		up.Prev, dn.Prev = z.prevUp, z.prevDn
	}
	z.prevUp, z.prevDn, z.havePrev = u, d, true
	return up, dn, z.count > z.length
}

// Raw returns the unsmoothed lines.
func (z *ZadChannel) Raw() (up, dn float64) { return z.up, z.dn }

func (z *ZadChannel) Reset() {
	alpha := z.smUp.alpha
	*z = ZadChannel{ki: z.ki, length: z.length, smUp: ema{alpha: alpha}, smDn: ema{alpha: alpha}}
}

// ema is a seeded exponential recurrence.
type ema struct {
	alpha  float64
	value  float64
	seeded bool
}

func (e *ema) update(v float64) float64 {
	if !e.seeded {
		e.value, e.seeded = v, true
		return v
	}
	e.value += e.alpha * (v - e.value)
	return e.value
}
