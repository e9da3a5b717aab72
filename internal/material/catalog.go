package material

import (
	"fmt"
	"math"
	"strings"
)

const mpa = 1e6

// DiagramType selects characteristic or design material diagrams
type DiagramType int

const (
	Characteristic DiagramType = iota // "k"
	Design                            // "d"
)

func (t DiagramType) String() string {
	if t == Design {
		return "d"
	}
	return "k"
}

// ParseDiagramType accepts "k" or "d"
func ParseDiagramType(s string) (DiagramType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "k", "characteristic":
		return Characteristic, nil
	case "d", "design", "":
		return Design, nil
	}
	return Design, fmt.Errorf("unknown diagram type %q (want k or d)", s)
}

// Code identifies the design code whose formulas define a material
type Code string

const (
	EC2  Code = "EC2"
	EHE  Code = "EHE"
	NSCP Code = "NSCP"
)

// Concrete holds code properties of a concrete grade. Strengths in MPa.
type Concrete struct {
	Name    string
	Code    Code
	Fck     float64 // characteristic compressive strength
	GammaC  float64 // partial safety factor
	AlphaCC float64 // long-term coefficient
}

// NewConcrete returns a concrete with the usual partial factors of the code
func NewConcrete(code Code, fck float64) Concrete {
	return Concrete{Name: fmt.Sprintf("C%.0f", fck), Code: code, Fck: fck, GammaC: 1.5, AlphaCC: 1.0}
}

// Fcm is the mean compressive strength (MPa)
func (c Concrete) Fcm() float64 { return c.Fck + 8 }

// Fcd is the design compressive strength (MPa)
func (c Concrete) Fcd() float64 {
	alpha := c.AlphaCC
	if alpha == 0 {
		alpha = 1
	}
	return alpha * c.Fck / c.GammaC
}

// Fctm is the mean tensile strength (MPa); EC2 Table 3.1, EHE-08 art. 39.1
func (c Concrete) Fctm() float64 {
	if c.Fck <= 50 {
		return 0.30 * math.Pow(c.Fck, 2.0/3.0)
	}
	if c.Code == EHE {
		return 0.58 * math.Sqrt(c.Fck)
	}
	return 2.12 * math.Log(1+c.Fcm()/10)
}

// Ecm is the secant modulus of elasticity (MPa); EC2 Table 3.1, EHE-08 art. 39.6
func (c Concrete) Ecm() float64 {
	if c.Code == EHE {
		return 8500 * math.Cbrt(c.Fcm())
	}
	return 22000 * math.Pow(c.Fcm()/10, 0.3)
}

// EpsC2 is the strain at reaching the maximum stress (negative)
func (c Concrete) EpsC2() float64 {
	if c.Fck <= 50 {
		return -0.002
	}
	if c.Code == EHE {
		return -(0.002 + 0.000085*math.Sqrt(c.Fck-50))
	}
	return -(2.0 + 0.085*math.Pow(c.Fck-50, 0.53)) / 1000
}

// EpsCU2 is the ultimate strain (negative)
func (c Concrete) EpsCU2() float64 {
	if c.Fck <= 50 {
		return -0.0035
	}
	if c.Code == EHE {
		return -(0.0026 + 0.0144*math.Pow((100-c.Fck)/100, 4))
	}
	return -(2.6 + 35*math.Pow((90-c.Fck)/100, 4)) / 1000
}

// Exponent of the parabola
func (c Concrete) Exponent() float64 {
	if c.Fck <= 50 {
		return 2
	}
	if c.Code == EHE {
		return 1.4 + 9.6*math.Pow((100-c.Fck)/100, 4)
	}
	return 1.4 + 23.4*math.Pow((90-c.Fck)/100, 4)
}

// Law returns the parabola-rectangle diagram in Pa
func (c Concrete) Law(t DiagramType) (*Law, error) {
	if c.Fck <= 0 || c.GammaC <= 0 {
		return nil, fmt.Errorf("concrete %q: fck and γc must be positive", c.Name)
	}
	fc := c.Fck
	if t == Design {
		fc = c.Fcd()
	}
	return NewParabolaRectangle(c.Name+t.String(), fc*mpa, c.EpsC2(), c.EpsCU2(), c.Exponent())
}

// Steel holds code properties of reinforcing steel. Strengths in MPa.
type Steel struct {
	Name     string
	Fyk      float64 // characteristic yield stress
	GammaS   float64 // partial safety factor
	Es       float64 // modulus of elasticity
	EpsUK    float64 // characteristic strain at maximum load
	K        float64 // ft/fy ratio; 1 gives a flat plateau
	EpsLimit float64 // strain limit of the diagram; 0 means 0.9*EpsUK
}

// B500S is the EHE-08 weldable bar steel with the 10‰ strain limit
var B500S = Steel{Name: "B500S", Fyk: 500, GammaS: 1.15, Es: 200000, EpsUK: 0.05, K: 1.05, EpsLimit: 0.01}

// B500B is the EC2 class B bar steel
var B500B = Steel{Name: "B500B", Fyk: 500, GammaS: 1.15, Es: 200000, EpsUK: 0.05, K: 1.08}

// Fyd is the design yield stress (MPa)
func (s Steel) Fyd() float64 { return s.Fyk / s.GammaS }

// Limit returns the ultimate strain of the diagram
func (s Steel) Limit() float64 {
	if s.EpsLimit > 0 {
		return s.EpsLimit
	}
	return 0.9 * s.EpsUK
}

// Law returns the bilinear diagram in Pa
func (s Steel) Law(t DiagramType) (*Law, error) {
	if s.Fyk <= 0 || s.Es <= 0 || s.GammaS <= 0 {
		return nil, fmt.Errorf("steel %q: fyk, Es and γs must be positive", s.Name)
	}
	fy := s.Fyk
	if t == Design {
		fy = s.Fyd()
	}
	var b float64
	if s.K > 1 && s.EpsUK > fy/s.Es {
		b = (s.K - 1) * fy / (s.EpsUK - fy/s.Es) / s.Es
	}
	return NewBilinear(s.Name+t.String(), s.Es*mpa, fy*mpa, b, s.Limit())
}
