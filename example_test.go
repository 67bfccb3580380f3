package ppcfuzz

import (
	"fmt"
	"os"
)

// Example of generating a testcase without running it
func ExampleFuzzer_Generate() {
	f, err := New(Config{Features: FeaturesMicrowatt}, nil)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	tc, err := f.Generate(1, 64)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Body: %d instructions, %d load/store\n", len(tc.Body), len(tc.Accesses))
	// Output: Body: 64 instructions, 2 load/store
}

// Example of selecting the capabilities of a core
func ExampleParseFeatures() {
	f, err := ParseFeatures("power8,isa3")
	if err != nil {
		panic(err)
	}
	fmt.Println(f)
	fmt.Println(f.Has(FeatureVSX))
	// Output:
	// scalar,carry,overflow,divide,isa3,float,storeconditional
	// false
}

// Example of the line RunMany ends with
func ExampleSummary_String() {
	s := Summary{Tests: 10, Elapsed: 5120, Words: 14350}
	fmt.Println(s)
	// Output: timebase delta = 5120, # instructions = 14350
}

// Example of the report line of a testcase
func ExampleWriteHashLine() {
	WriteHashLine(os.Stdout, 42, 0xdeadbeef)
	// Output: 42 00000000deadbeef
}
