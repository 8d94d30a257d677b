package simpledi_test

import (
	"errors"
	"fmt"

	"github.com/junioryono/simpledi"
)

func Example() {
	c := simpledi.New()

	_ = c.Provide(func() *EnglishGreeter { return &EnglishGreeter{Name: "world"} })
	_ = simpledi.RegisterAs[Greeter, *EnglishGreeter](c, simpledi.Singleton)

	greeter := simpledi.MustResolve[Greeter](c)
	fmt.Println(greeter.Greet())
	// Output: hello world
}

func ExampleContainer_Provide() {
	c := simpledi.New()

	// The constructor with fewer parameters wins when both are usable.
	_ = c.Provide(
		func(e *Engine) *Car { return &Car{Engine: e} },
		func() *Car { return &Car{Engine: &Engine{Cylinders: 4}} },
	)

	car, _ := simpledi.Resolve[*Car](c)
	fmt.Println(car.Engine.Cylinders)
	// Output: 4
}

func ExampleContainer_Resolve_notRegistered() {
	c := simpledi.New()

	_, err := c.Resolve(simpledi.TypeOf[Greeter]())
	fmt.Println(errors.Is(err, simpledi.ErrNotRegisteredDependency))
	// Output: true
}

func ExampleNewModule() {
	engines := simpledi.NewModule("engines",
		simpledi.ProvideOption(func() *Engine { return &Engine{Cylinders: 8} }),
		simpledi.RegisterOption[*Engine](simpledi.Singleton),
	)

	c := simpledi.New()
	if err := c.AddModules(engines); err != nil {
		panic(err)
	}

	for _, r := range c.Registrations() {
		fmt.Println(r)
	}
	// Output: *Engine -> *Engine (Singleton)
}
