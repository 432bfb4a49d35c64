package patch_test

import (
	"fmt"

	"github.com/walteh/patchrc/pkg/patch"
)

func ExampleSet_Apply() {
	set := &patch.Set{
		Name: "cart-brace",
		Path: "js/cart.js",
		Rules: []patch.Rule{
			{
				ID:          "extra-closing-brace",
				Description: "remove the stray brace after x()",
				Match:       patch.Literal("); \n}\n}"),
				Replace:     patch.Template(");\n}"),
			},
		},
	}

	fixed, results := set.Apply("a(){\n  x();\n}\n}")
	fmt.Printf("%q\n", fixed)
	fmt.Println(results[0].ID, results[0].Outcome)

	_, results = set.Apply(fixed)
	fmt.Println(results[0].ID, results[0].Outcome)

	// Output:
	// "a(){\n  x();\n}"
	// extra-closing-brace applied
	// extra-closing-brace skipped-no-match
}

func ExampleRegexp() {
	rule := patch.Rule{
		ID:      "canonical-host",
		Match:   patch.MustRegexp(`https?://(www\.)?shop\.example\.com`),
		Replace: patch.Template("https://shop.example.com"),
		Multi:   true,
	}

	out, applied, err := rule.Apply(`<link rel="canonical" href="http://www.shop.example.com/cart">`)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(out)
	fmt.Println(applied)

	// Output:
	// <link rel="canonical" href="https://shop.example.com/cart">
	// true
}
