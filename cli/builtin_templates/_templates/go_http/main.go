// {{display_name}}
package main

import (
	"fmt"
	"log"
	"net/http"
)

func main() {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "{{project_name}} is up")
	})

	log.Println("{{display_name}} listening on {{listen_addr}}")
	log.Fatal(http.ListenAndServe("{{listen_addr}}", nil))
}
