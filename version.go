package main

// Version represents the current version of the application
const Version = "0.2.0"
