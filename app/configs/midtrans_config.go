package configs

import (
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

func MidtransEnvironment(env ENV) midtrans.EnvironmentType {
	if env.MidtransProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

func NewMidtransClients(env ENV) (snap.Client, coreapi.Client) {
	var snapClient snap.Client
	var coreClient coreapi.Client

	snapClient.New(env.MidtransServerKey, MidtransEnvironment(env))
	coreClient.New(env.MidtransServerKey, MidtransEnvironment(env))

	midtrans.ClientKey = env.MidtransClientKey
	midtrans.ServerKey = env.MidtransServerKey
	midtrans.Environment = MidtransEnvironment(env)

	log.Println("Midtrans Snap and Core API clients initialized.")
	return snapClient, coreClient
}
