package db

// Name is the database name.
const Name = "demo"
