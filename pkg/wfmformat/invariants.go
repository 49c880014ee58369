package wfmformat

import (
	"fmt"

	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/werr"
)

// CheckInvariants verifies I1-I6 (I7, I8 hold by construction in
// Marshal) before any bytes reach the caller's writer, per spec §4.6's
// write pipeline and §7's policy that invariant violations are fatal
// on write.
func (a *Assembler) CheckInvariants() error {
	format := mustFormat(a.ExplicitDim[0])
	et, err := wfmenum.CurveFormatToElementType(format)
	if err != nil {
		return fmt.Errorf("wfmformat: %w: %v", werr.ErrInvariantViolation, err)
	}
	bpp, _ := a.FileInfo["bytes_per_point"].(uint8)
	if int(bpp) != et.ByteLen() {
		return fmt.Errorf("wfmformat: %w: I1 bytes_per_point=%d != sizeof(ET)=%d", werr.ErrInvariantViolation, bpp, et.ByteLen())
	}

	wantFrames := len(a.FastFrames)
	gotFrames, _ := a.FileInfo["number_of_frames"].(uint32)
	if int(gotFrames) != wantFrames {
		return fmt.Errorf("wfmformat: %w: I2 number_of_frames=%d != %d", werr.ErrInvariantViolation, gotFrames, wantFrames)
	}

	updSpecCnt, _ := a.Header["upd_spec_cnt"].(uint32)
	if int(updSpecCnt) != wantFrames+1 {
		return fmt.Errorf("wfmformat: %w: I3 upd_spec_cnt=%d != %d", werr.ErrInvariantViolation, updSpecCnt, wantFrames+1)
	}

	wantImpDim := uint32(1)
	if a.HasSecondImplicit {
		wantImpDim = 2
	}
	gotImpDim, _ := a.Header["imp_dim_cnt"].(uint32)
	if gotImpDim != wantImpDim {
		return fmt.Errorf("wfmformat: %w: I4 imp_dim_cnt=%d != %d", werr.ErrInvariantViolation, gotImpDim, wantImpDim)
	}
	wantExpDim := uint32(1)
	if a.HasSecondExplicit {
		wantExpDim = 2
	}
	gotExpDim, _ := a.Header["exp_dim_cnt"].(uint32)
	if gotExpDim != wantExpDim {
		return fmt.Errorf("wfmformat: %w: I4 exp_dim_cnt=%d != %d", werr.ErrInvariantViolation, gotExpDim, wantExpDim)
	}

	wantImpSize := uint32(a.PreBuffer.Len() + a.CurveBuffer.Len() + a.PostBuffer.Len())
	gotImpSize, _ := a.ImplicitDim[0]["size"].(uint32)
	if gotImpSize != wantImpSize {
		return fmt.Errorf("wfmformat: %w: I5 implicit.first.size=%d != %d", werr.ErrInvariantViolation, gotImpSize, wantImpSize)
	}

	preStart, _ := a.CurveInfoPrimary["pre_start"].(uint32)
	dataStart, _ := a.CurveInfoPrimary["data_start"].(uint32)
	postStart, _ := a.CurveInfoPrimary["post_start"].(uint32)
	postStop, _ := a.CurveInfoPrimary["post_stop"].(uint32)

	if int(dataStart-preStart) != a.PreBuffer.Len()*et.ByteLen() {
		return fmt.Errorf("wfmformat: %w: I6 pre buffer offsets inconsistent", werr.ErrInvariantViolation)
	}
	if int(postStop-postStart) != a.PostBuffer.Len()*et.ByteLen() {
		return fmt.Errorf("wfmformat: %w: I6 post buffer offsets inconsistent", werr.ErrInvariantViolation)
	}
	if int(postStart-dataStart) != a.CurveBuffer.Len()*et.ByteLen() {
		return fmt.Errorf("wfmformat: %w: I6 curve buffer offsets inconsistent", werr.ErrInvariantViolation)
	}

	return nil
}
