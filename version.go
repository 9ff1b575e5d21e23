package exitintent

// Version is the release of the exitintent module.
const Version = "0.3.0"
