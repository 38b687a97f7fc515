package exponential_test

import (
	"fmt"
	"log"

	"github.com/arloliu/relaxfit/buffer"
	"github.com/arloliu/relaxfit/exponential"
)

// ExampleDecay demonstrates back-calculating a decay curve and its gradient.
func ExampleDecay() {
	m := &exponential.Decay{I0: 100, R: 2}
	times := []float64{0, 0.5, 1}

	curve := make([]float64, len(times))
	if err := m.Evaluate(times, curve); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("curve: %.2f\n", curve)

	// slot 0 holds I0, slot 1 holds R
	grad, err := buffer.NewGradient(2, len(times))
	if err != nil {
		log.Fatal(err)
	}
	if err := m.DR(1, times, grad); err != nil {
		log.Fatal(err)
	}
	dr, _ := grad.At(1, 1)
	fmt.Printf("dI/dR at t=0.5: %.2f\n", dr)

	// Output:
	// curve: [100.00 36.79 13.53]
	// dI/dR at t=0.5: -18.39
}

// ExampleNewFromName demonstrates selecting a model by name and filling a
// Hessian plane through the generic interface.
func ExampleNewFromName() {
	m, err := exponential.NewFromName("inv", []float64{50, 80, 1})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.Type(), m.Params())

	times := []float64{0, 1}
	curve := make([]float64, len(times))
	if err := m.Evaluate(times, curve); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("curve: %.2f\n", curve)

	hess, err := buffer.NewHessian(3, len(times))
	if err != nil {
		log.Fatal(err)
	}
	if err := m.Hessian(exponential.ParamR, exponential.ParamIinf, 2, 1, times, hess); err != nil {
		log.Fatal(err)
	}
	v, _ := hess.At(2, 1, 1)
	fmt.Printf("d2I/dR dIinf at t=1: %.4f\n", v)

	// Output:
	// inv [I0 Iinf R]
	// curve: [-30.00 20.57]
	// d2I/dR dIinf at t=1: 0.3679
}

// ExampleSaturation shows the saturation recovery curve and rate derivative.
func ExampleSaturation() {
	m := &exponential.Saturation{Iinf: 200, R: 0.5}
	times := []float64{2}

	curve := make([]float64, 1)
	_ = m.Evaluate(times, curve)

	grad, _ := buffer.NewGradient(2, 1)
	_ = m.DR(1, times, grad)
	dr, _ := grad.At(1, 0)

	fmt.Printf("I(2) = %.2f, dI/dR = %.2f\n", curve[0], dr)
	fmt.Println(m.Formula())

	// Output:
	// I(2) = 126.42, dI/dR = 147.15
	// I = 200 * (1 - exp(-0.5 * t))
}
