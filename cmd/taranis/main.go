// cmd/taranis/main.go
package main

import (
	"taranis/internal/app"
	"taranis/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
