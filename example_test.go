package charta_test

import (
	"fmt"

	charta "github.com/charta-vm/charta-go"
)

const exampleProgram = `{
	"version": "0.1.0",
	"module": {
		"name": "example",
		"signals": [{"name": "input_signal"}],
		"coils": [{"name": "output_coil"}],
		"rungs": [{
			"name": "drive_output",
			"guard": {"type": "contact", "name": "input_signal", "contact_type": "NO"},
			"actions": [{"type": "energise", "coil": "output_coil"}]
		}]
	}
}`

func ExampleVM() {
	vm := charta.New()
	if err := vm.LoadProgram(exampleProgram); err != nil {
		fmt.Println("load:", err)
		return
	}

	if err := vm.SetSignal("input_signal", true); err != nil {
		fmt.Println("set:", err)
		return
	}

	outputs, err := vm.ExecuteCycle()
	if err != nil {
		fmt.Println("cycle:", err)
		return
	}

	fmt.Println("output_coil:", outputs["output_coil"])
	// Output:
	// output_coil: true
}

func ExampleVM_OnCoilChange() {
	vm := charta.New()
	if err := vm.LoadProgram(exampleProgram); err != nil {
		fmt.Println("load:", err)
		return
	}

	_ = vm.OnCoilChange("output_coil",
		charta.CoilHandlerFunc(func(name string, oldValue, newValue bool) error {
			fmt.Printf("%s changed: %v -> %v\n", name, oldValue, newValue)
			return nil
		}))

	_ = vm.SetSignal("input_signal", true)
	if _, err := vm.ExecuteCycle(); err != nil {
		fmt.Println("cycle:", err)
		return
	}

	_ = vm.SetSignal("input_signal", false)
	if _, err := vm.ExecuteCycle(); err != nil {
		fmt.Println("cycle:", err)
		return
	}

	// Output:
	// output_coil changed: false -> true
	// output_coil changed: true -> false
}

func ExampleVM_ExecuteCycleWithInputs() {
	const latchProgram = `{
		"version": "0.1.0",
		"module": {
			"name": "motor",
			"signals": [{"name": "start"}, {"name": "stop"}],
			"coils": [{"name": "running", "latching": true}],
			"rungs": [
				{
					"name": "start_rung",
					"guard": {"type": "contact", "name": "start", "contact_type": "NO"},
					"actions": [{"type": "energise", "coil": "running"}]
				},
				{
					"name": "stop_rung",
					"guard": {"type": "contact", "name": "stop", "contact_type": "NO"},
					"actions": [{"type": "de_energise", "coil": "running"}]
				}
			]
		}
	}`

	vm := charta.New()
	if err := vm.LoadProgram(latchProgram); err != nil {
		fmt.Println("load:", err)
		return
	}

	cycles := []map[string]bool{
		{"start": true},
		{"start": false},
		{"stop": true},
	}
	for _, inputs := range cycles {
		outputs, err := vm.ExecuteCycleWithInputs(inputs)
		if err != nil {
			fmt.Println("cycle:", err)
			return
		}
		fmt.Println("running:", outputs["running"])
	}

	// Output:
	// running: true
	// running: true
	// running: false
}
