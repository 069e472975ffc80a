/*
Package dsl provides a Go DSL for programmatically constructing menube menu trees.

It allows developers to define menus using a fluent builder instead of JSON, YAML
or TOML files. This is particularly useful for embedding a menu in a program and
for unit tests.

Example usage:

	b := dsl.New()

	tools := b.Add("Tools")
	tools.Add("Date").Command("date").NotifyOn("show_date")
	tools.Add("Say hi").Emit("text", "hello")

	b.Add("Wifi").Options("nmcli -t -f ssid dev wifi", "./connect.sh").NotifyOn("selected")
	b.Add("Quit").Emit("exit")

	// The builder can be used as a ports.MenuLoader
	eng, err := menube.New("", menube.WithLoader(b.Build()))
*/
package dsl
