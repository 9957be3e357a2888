// Command kernel-profiling scrapes the top public kernels of a Kaggle
// competition and writes a Markdown profile report.
package main

func main() {
	Execute()
}
