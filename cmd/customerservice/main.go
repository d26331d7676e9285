// Command customerservice runs the customer service agents and their clients.
package main

func main() {
	Execute()
}
