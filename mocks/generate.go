// Package mocks provides gomock-generated mocks for the service collaborators.
// Generated using mockgen from github.com/golang/mock.
package mocks

//go:generate mockgen -destination=mock_exporter.go -package=mocks github.com/Kariqs/farmers-market-api/receipts Exporter
//go:generate mockgen -destination=mock_gateway.go -package=mocks github.com/Kariqs/farmers-market-api/payment Gateway
//go:generate mockgen -destination=mock_uploader.go -package=mocks github.com/Kariqs/farmers-market-api/storage Uploader
