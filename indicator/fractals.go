package indicator

// LastFractals scans for the most recent confirmed Bill Williams fractals:
// a bar whose high (low) is strictly above (below) the two bars on each
// side. The two newest bars can never be confirmed.
func LastFractals(highs, lows []float64) (up, down float64, upOK, downOK bool) {
	n := len(highs)
	if len(lows) != n {
		return 0, 0, false, false
	}
	for i := n - 3; i >= 2 && !(upOK && downOK); i-- {
		if !upOK && highs[i] > highs[i-1] && highs[i] > highs[i-2] &&
			highs[i] > highs[i+1] && highs[i] > highs[i+2] {
			up, upOK = highs[i], true
		}
		if !downOK && lows[i] < lows[i-1] && lows[i] < lows[i-2] &&
			lows[i] < lows[i+1] && lows[i] < lows[i+2] {
			down, downOK = lows[i], true
		}
	}
	return up, down, upOK, downOK
}
