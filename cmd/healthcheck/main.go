package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	transportgrpc "github.com/WeAreCode045/wphub-pro-sub002/internal/transport/grpc"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC address of the RBAC service")
	service := flag.String("service", transportgrpc.ServiceName, "health service name; empty checks the whole server")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: *service})
	if err != nil {
		log.Fatalf("health check failed: %v", err)
	}

	fmt.Println(resp.GetStatus())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
