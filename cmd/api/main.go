package main

// @title Gemma Relay APIs
// @version 1.0
// @description HTTP relay in front of a local Ollama inference server.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3001
// @BasePath /
// @schemes http
import (
	protocol "gemma-relay/protocal"
	_ "gemma-relay/docs"

	_ "github.com/arsmn/fiber-swagger/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeHTTP()
	if err != nil {
		logrus.Println(err)
	}
}
