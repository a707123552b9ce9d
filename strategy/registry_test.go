package strategy

import (
	"testing"
)

func TestRegistryBuildsEveryStrategy(t *testing.T) {
	h := newHarness(t)
	cfg := buildConfig()
	cfg.TakeProfitPct = 0.03 // martingale needs a target

	names := Names()
	if len(names) != 14 {
		t.Fatalf("expected 14 strategies, got %d: %v", len(names), names)
	}
	for _, n := range names {
		s, err := New(n, testSymbol, cfg, nil, h.exec, h.log)
		if err != nil {
			t.Fatalf("%s: %v", n, err)
		}
		if s.Name() != n || s.Symbol() != testSymbol {
			t.Fatalf("%s: unexpected identity %s/%s", n, s.Name(), s.Symbol())
		}
		s.Reset()
	}
}

func TestRegistryDecodesParams(t *testing.T) {
	h := newHarness(t)
	raw := map[string]interface{}{"fast_period": 5, "slow_period": 8, "ma_type": "ema"}
	s, err := New(NameMACross, testSymbol, buildConfig(), raw, h.exec, h.log)
	if err != nil {
		t.Fatal(err)
	}
	mac := s.(*MACrossMomentum)
	if mac.p.FastPeriod != 5 || mac.p.SlowPeriod != 8 || mac.p.MomentumPeriod != 14 {
		t.Fatalf("unexpected params %+v", mac.p)
	}

	raw["slow_period"] = 3
	if _, err := New(NameMACross, testSymbol, buildConfig(), raw, h.exec, h.log); err == nil {
		t.Fatal("expected fast >= slow to be rejected")
	}
	if _, err := New("nope", testSymbol, buildConfig(), nil, h.exec, h.log); err == nil {
		t.Fatal("expected unknown strategy error")
	}
}
