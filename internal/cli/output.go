package cli

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// printResult renders v to stdout in the selected output format.
func printResult(v any) {
	switch formatFlag {
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			exitErr("render yaml", err)
		}
		fmt.Print(string(b))
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			exitErr("render json", err)
		}
		fmt.Println(string(b))
	}
}
