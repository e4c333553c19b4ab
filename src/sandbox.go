package main

import (
	"context"
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/mdnsquery/engine/src/dissolve/mdns/querier"
	"github.com/mdnsquery/engine/src/dissolve/mdns/querier/udptransport"
)

// sandbox sends a single mDNS discovery query for the service type named on
// the command line and exits. It exists to exercise querier.Builder and
// udptransport.Transport together outside of tests; it does not listen for
// or decode any responses.
func main() {
	serviceType := flag.String("service", "_http._tcp.local", "service type to query for")
	subtype := flag.String("subtype", "", "optional RFC 6763 subtype label")
	unicast := flag.Bool("unicast", false, "request a unicast response instead of multicast")
	flag.Parse()

	logger := logging.DefaultLogger

	tp, err := udptransport.New(udptransport.WithLogger(logger))
	if err != nil {
		log.Fatalf("sandbox: unable to open transport: %s", err)
	}
	defer tp.Close()

	ref, box := querier.NewTransportRef(tp)
	defer runtime.KeepAlive(box)

	opts := []querier.Option{
		querier.WithLogger(logger),
		querier.WithDiscoveryQueries(),
	}
	if *subtype != "" {
		opts = append(opts, querier.WithSubtypes(*subtype))
	}
	if *unicast {
		opts = append(opts, querier.WithUnicastResponse())
	}

	b, err := querier.NewBuilder(ref, *serviceType, uint16(time.Now().UnixNano()), opts...)
	if err != nil {
		log.Fatalf("sandbox: unable to build query for %s: %s", *serviceType, err)
	}

	txID, subtypes, ok := b.Call(context.Background())
	if !ok {
		log.Fatalf("sandbox: query for %s was not sent", *serviceType)
	}

	logging.Log(logger, "sandbox: sent query %d for %s (subtypes: %v)", txID, *serviceType, subtypes)
}
