package main

//confbind:generate get
type Node struct {
	Name     string
	Children []*Node
	Next     *Node
}
