package version

// Version is the version of docker-tags being built
const Version = "1.2.0"
