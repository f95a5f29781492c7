package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/xwm/internal/geom"
)

// Output is an enabled display output and the region it scans out.
type Output struct {
	Name   string
	Region geom.Region
}

// Outputs enumerates RandR outputs through their CRTCs. Outputs whose info
// cannot be read, that are not driven by a CRTC, or whose CRTC region is
// empty are skipped.
func (s *Session) Outputs() []Output {
	resources, err := randr.GetScreenResources(s.conn, s.check).Reply()
	if err != nil {
		s.logger.Error("error reading X screen resources", "error", err)
		return nil
	}

	var outputs []Output
	for _, id := range resources.Outputs {
		info, err := randr.GetOutputInfo(s.conn, id, resources.ConfigTimestamp).Reply()
		if err != nil {
			s.logger.Error("error reading X output info", "output", id, "error", err)
			continue
		}
		if info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(s.conn, info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			s.logger.Error("error reading X crtc info", "crtc", info.Crtc, "error", err)
			continue
		}

		region := geom.Region{
			X:      int32(crtc.X),
			Y:      int32(crtc.Y),
			Width:  uint32(crtc.Width),
			Height: uint32(crtc.Height),
		}
		if region.IsEmpty() {
			s.logger.Info("crtc has zero dimensions", "crtc", info.Crtc)
			continue
		}

		name := string(info.Name)
		if name == "" {
			name = fmt.Sprintf("output-%d", id)
		}
		outputs = append(outputs, Output{Name: name, Region: region})
	}
	return outputs
}

// OutputContaining returns the first output whose region contains p.
func OutputContaining(outputs []Output, p geom.Point) (Output, bool) {
	for _, o := range outputs {
		if o.Region.Contains(p) {
			return o, true
		}
	}
	return Output{}, false
}
