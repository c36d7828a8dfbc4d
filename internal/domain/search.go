package domain

// KeyPrefix is the namespace for every key this service writes to shared stores.
const KeyPrefix = "discovery:"

// DefaultHandler is the search handler used when a request names none.
const DefaultHandler = "AllFields"
