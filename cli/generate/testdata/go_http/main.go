package main

func main() {
	println("{{project_name}}")
}
