package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RawFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename raw_fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RawArchiver --dir ../usecase --output usecase --outpkg usecasemock --filename raw_archiver_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/integrity --output domain/integrity --outpkg integritymock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StoreOpener --dir ../domain/integrity --output domain/integrity --outpkg integritymock --filename store_opener_mock.go
