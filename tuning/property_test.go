package tuning

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyEqualDivisionRoundTrips checks that for any N-EDO scale built
// via NewSclBuilder, every degree it was built from round-trips exactly
// through FindByRelativePitch with zero deviation.
func TestPropertyEqualDivisionRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 72).Draw(t, "n")
		degree := rapid.IntRange(-2*n, 2*n).Draw(t, "degree")

		b := NewSclBuilder()
		for i := 1; i <= n; i++ {
			b = b.PushCents(1200 * float64(i) / float64(n))
		}
		scl, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}

		relPitch := scl.RelativePitchOf(degree)
		approx := scl.FindByRelativePitch(relPitch)
		if approx.ApproxValue != degree {
			t.Fatalf("degree %d: round trip gave %d", degree, approx.ApproxValue)
		}
		if !approx.Deviation.IsNegligible() {
			t.Fatalf("degree %d: round trip left a %f cent deviation", degree, approx.Deviation.AsCents())
		}
	})
}

// TestPropertyMosParentChildRoundTrip checks MOS's generation step is a
// true inverse of Parent across arbitrary coprime (primary, secondary)
// genesis step-size pairs.
func TestPropertyMosParentChildRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		primary := rapid.IntRange(1, 30).Draw(t, "primary")
		secondary := rapid.IntRange(1, 30).Draw(t, "secondary")
		if gcdInt(primary, secondary) != 1 {
			t.Skip("genesis requires coprime step sizes")
		}

		m := NewMosGenesis(primary+secondary, primary)
		child, ok := m.Child()
		if !ok {
			return
		}
		parent, ok := child.Parent()
		if !ok {
			t.Fatal("child reported a Parent that Parent() then refused")
		}
		if parent.PrimaryStep() != m.PrimaryStep() || parent.SecondaryStep() != m.SecondaryStep() {
			t.Fatalf("parent/child round trip changed step sizes: got (%d,%d) want (%d,%d)",
				parent.PrimaryStep(), parent.SecondaryStep(), m.PrimaryStep(), m.SecondaryStep())
		}
	})
}

// TestPropertyJitPoolNeverExceedsChannelBudget checks that, across any
// sequence of note-on/note-off events under any pooling mode, a JitTuner
// never hands out more simultaneous channels than it was configured with.
func TestPropertyJitPoolNeverExceedsChannelBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numChannels := rapid.IntRange(1, 8).Draw(t, "numChannels")
		mode := rapid.SampledFrom([]PoolingMode{PoolingBlock, PoolingStop, PoolingIgnore}).Draw(t, "mode")
		tuner := NewJitTuner[int](numChannels, GroupByChannel, mode)

		numOps := rapid.IntRange(1, 40).Draw(t, "numOps")
		nextKey := 0
		var liveKeys []int
		for i := 0; i < numOps; i++ {
			pressNew := len(liveKeys) == 0 || rapid.Bool().Draw(t, "press")
			if pressNew {
				key := nextKey
				nextKey++
				note := NoteFromMIDINumber(40 + key%40)
				result := tuner.RegisterKey(key, note.Pitch())
				if result.Accepted {
					liveKeys = append(liveKeys, key)
					if result.StoppedNote != nil {
						liveKeys = removeOneStoppedKey(liveKeys, tuner)
					}
				}
			} else {
				idx := rapid.IntRange(0, len(liveKeys)-1).Draw(t, "releaseIdx")
				key := liveKeys[idx]
				tuner.DeregisterKey(key)
				liveKeys = append(liveKeys[:idx], liveKeys[idx+1:]...)
			}

			if len(tuner.ActiveKeys()) > numChannels {
				t.Fatalf("active channel count %d exceeds budget %d", len(tuner.ActiveKeys()), numChannels)
			}
		}
	})
}

// removeOneStoppedKey drops whichever liveKeys entry the tuner no longer
// reports as active, keeping the property test's bookkeeping in sync with a
// PoolingStop eviction.
func removeOneStoppedKey(liveKeys []int, tuner *JitTuner[int]) []int {
	out := liveKeys[:0:0]
	for _, k := range liveKeys {
		if tuner.AccessKey(k).Found {
			out = append(out, k)
		}
	}
	return out
}
