// FILE: example/gnet/main.go
package main

import (
	"github.com/lixenwraith/dlog"
	"github.com/lixenwraith/dlog/compat"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	f, err := dlog.NewBuilder().
		Directory("/var/log/gnet").
		Async(true).
		Module("gnet", "debug", "file", "gnet.log").
		Build()
	if err != nil {
		panic(err)
	}
	defer f.Shutdown()

	gnetAdapter, err := compat.NewBuilder().WithFacility(f).BuildGnet("gnet")
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
